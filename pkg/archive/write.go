package archive

import (
	"archive/tar"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/renameio/v2"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/distkit/sdist/pkg/paths"
)

type Format string

const (
	FormatGzip Format = "gzip"
	FormatZstd Format = "zstd"
	FormatLZ4  Format = "lz4"
	FormatNone Format = "none"
)

func ParseFormat(s string) (Format, error) {
	switch s {
	case "gzip", "gz":
		return FormatGzip, nil
	case "zstd", "zst":
		return FormatZstd, nil
	case "lz4":
		return FormatLZ4, nil
	case "none", "tar":
		return FormatNone, nil
	}
	return "", fmt.Errorf("unknown archive format %q", s)
}

func (f Format) Extension() string {
	switch f {
	case FormatZstd:
		return ".tar.zst"
	case FormatLZ4:
		return ".tar.lz4"
	case FormatNone:
		return ".tar"
	}
	return ".tar.gz"
}

func FormatForPath(p string) (Format, error) {
	switch {
	case strings.HasSuffix(p, ".tar.gz"),
		strings.HasSuffix(p, ".tgz"):
		return FormatGzip, nil
	case strings.HasSuffix(p, ".tar.zst"):
		return FormatZstd, nil
	case strings.HasSuffix(p, ".tar.lz4"):
		return FormatLZ4, nil
	case strings.HasSuffix(p, ".tar"):
		return FormatNone, nil
	}
	return "", fmt.Errorf(
		"unrecognized archive extension: %s", filepath.Base(p),
	)
}

type Options struct {
	Prefix string
	Format Format
}

type Summary struct {
	Path   string `json:"path"`
	Files  int    `json:"files"`
	Bytes  int64  `json:"bytes"`
	SHA256 string `json:"sha256"`
}

func Write(
	root string,
	files []string,
	w io.Writer,
	opts Options,
) (int, error) {
	sorted := make([]string, len(files))
	copy(sorted, files)
	sort.Strings(sorted)

	named := make([]string, len(sorted))
	for i, rel := range sorted {
		if err := paths.ValidateRel(rel); err != nil {
			return 0, fmt.Errorf("invalid path %s: %w", rel, err)
		}
		named[i] = rel
		if opts.Prefix != "" {
			named[i] = opts.Prefix + "/" + rel
		}
	}

	cw, err := compressor(w, opts.Format)
	if err != nil {
		return 0, err
	}
	tw := tar.NewWriter(cw)

	for _, d := range collectDirs(named) {
		err := tw.WriteHeader(&tar.Header{
			Typeflag: tar.TypeDir,
			Name:     d + "/",
			Mode:     0755,
			ModTime:  time.Time{},
		})
		if err != nil {
			return 0, fmt.Errorf("write dir header: %w", err)
		}
	}

	count := 0
	for i, rel := range sorted {
		abs := filepath.Join(root, filepath.FromSlash(rel))
		if !paths.WithinRoot(root, abs) {
			return 0, fmt.Errorf("path escapes root: %s", rel)
		}
		if err := addFile(tw, abs, named[i]); err != nil {
			return 0, err
		}
		count++
	}

	if err := tw.Close(); err != nil {
		return 0, fmt.Errorf("close tar: %w", err)
	}
	if err := cw.Close(); err != nil {
		return 0, fmt.Errorf("close %s stream: %w", opts.Format, err)
	}
	return count, nil
}

func Create(
	root string,
	files []string,
	outPath string,
	opts Options,
) (*Summary, error) {
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	pf, err := renameio.NewPendingFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("create pending archive: %w", err)
	}
	defer pf.Cleanup()

	digest := sha256.New()
	counter := &countingWriter{}
	count, err := Write(
		root,
		files,
		io.MultiWriter(pf, digest, counter),
		opts,
	)
	if err != nil {
		return nil, err
	}
	if err := pf.CloseAtomicallyReplace(); err != nil {
		return nil, fmt.Errorf("replace %s: %w", outPath, err)
	}

	return &Summary{
		Path:   outPath,
		Files:  count,
		Bytes:  counter.n,
		SHA256: hex.EncodeToString(digest.Sum(nil)),
	}, nil
}

type countingWriter struct {
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	c.n += int64(len(p))
	return len(p), nil
}

func compressor(w io.Writer, format Format) (io.WriteCloser, error) {
	switch format {
	case FormatGzip, "":
		return gzip.NewWriter(w), nil
	case FormatZstd:
		return zstd.NewWriter(
			w,
			zstd.WithEncoderLevel(zstd.SpeedDefault),
		)
	case FormatLZ4:
		return lz4.NewWriter(w), nil
	case FormatNone:
		return nopWriteCloser{w}, nil
	}
	return nil, fmt.Errorf("unknown archive format %q", format)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error {
	return nil
}

func addFile(tw *tar.Writer, absPath, name string) error {
	f, err := os.Open(absPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", name, err)
	}

	hdr := &tar.Header{
		Name:    name,
		Mode:    int64(info.Mode().Perm()),
		Size:    info.Size(),
		ModTime: time.Time{},
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("write header %s: %w", name, err)
	}
	if _, err := io.Copy(tw, f); err != nil {
		return fmt.Errorf("write body %s: %w", name, err)
	}
	return nil
}

func collectDirs(names []string) []string {
	seen := make(map[string]bool)
	var result []string

	for _, p := range names {
		dir := path.Dir(p)
		if dir == "." {
			continue
		}
		parts := strings.Split(dir, "/")
		var b strings.Builder
		for i, part := range parts {
			if i > 0 {
				b.WriteString("/")
			}
			b.WriteString(part)
			d := b.String()
			if !seen[d] {
				seen[d] = true
				result = append(result, d)
			}
		}
	}
	return result
}
