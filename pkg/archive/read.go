package archive

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	gopath "path"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/distkit/sdist/pkg/paths"
)

type ReadEntry struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
	Mode int    `json:"mode"`
}

// List returns the regular-file entries of an archive in header
// order, with names validated but otherwise untouched (the
// name-version prefix stays on).
func List(path string) ([]ReadEntry, error) {
	tr, closeAll, err := openTar(path)
	if err != nil {
		return nil, err
	}
	defer closeAll()

	var entries []ReadEntry
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if err := validateHeaderName(hdr.Name); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		entries = append(entries, ReadEntry{
			Path: cleanName(hdr.Name),
			Size: hdr.Size,
			Mode: int(hdr.Mode & 0777),
		})
	}
	return entries, nil
}

// Extract unpacks an archive under destDir and returns the number
// of files written. Absolute and traversal header names abort the
// extraction.
func Extract(path, destDir string) (int, error) {
	tr, closeAll, err := openTar(path)
	if err != nil {
		return 0, err
	}
	defer closeAll()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return 0, fmt.Errorf("create dest dir: %w", err)
	}

	count := 0
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, fmt.Errorf("read %s: %w", path, err)
		}
		if err := validateHeaderName(hdr.Name); err != nil {
			return count, fmt.Errorf("%s: %w", path, err)
		}

		name := cleanName(hdr.Name)
		target := filepath.Join(destDir, filepath.FromSlash(name))
		if !paths.WithinRoot(destDir, target) {
			return count, fmt.Errorf(
				"path escapes dest: %s", hdr.Name,
			)
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return count, fmt.Errorf(
					"mkdir %s: %w", name, err,
				)
			}
		case tar.TypeReg:
			if err := extractFile(tr, target, hdr); err != nil {
				return count, err
			}
			count++
		default:
			return count, fmt.Errorf(
				"unsupported entry type %q: %s",
				hdr.Typeflag, hdr.Name,
			)
		}
	}
	return count, nil
}

func extractFile(
	tr *tar.Reader, target string, hdr *tar.Header,
) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("mkdir parent: %w", err)
	}

	f, err := os.OpenFile(
		target,
		os.O_CREATE|os.O_WRONLY|os.O_TRUNC,
		os.FileMode(hdr.Mode&0777),
	)
	if err != nil {
		return fmt.Errorf("create %s: %w", hdr.Name, err)
	}

	_, copyErr := io.Copy(f, tr)
	closeErr := f.Close()
	if copyErr != nil {
		return fmt.Errorf("write %s: %w", hdr.Name, copyErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close %s: %w", hdr.Name, closeErr)
	}
	return nil
}

// cleanName normalizes a validated tar entry name: drops "./",
// trailing slashes, and repeated separators.
func cleanName(name string) string {
	return gopath.Clean(name)
}

func validateHeaderName(name string) error {
	if name == "" {
		return fmt.Errorf("empty name in archive")
	}
	if strings.HasPrefix(name, "/") {
		return fmt.Errorf("absolute path in archive: %s", name)
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return fmt.Errorf(
				"path traversal in archive: %s", name,
			)
		}
	}
	return nil
}

func openTar(path string) (*tar.Reader, func(), error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	switch format {
	case FormatGzip:
		gr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, nil, fmt.Errorf("gzip reader: %w", err)
		}
		return tar.NewReader(gr), func() {
			gr.Close()
			f.Close()
		}, nil
	case FormatZstd:
		zr, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, nil, fmt.Errorf("zstd reader: %w", err)
		}
		return tar.NewReader(zr), func() {
			zr.Close()
			f.Close()
		}, nil
	case FormatLZ4:
		return tar.NewReader(lz4.NewReader(f)),
			func() { f.Close() }, nil
	}
	return tar.NewReader(f), func() { f.Close() }, nil
}
