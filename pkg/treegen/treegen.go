package treegen

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// File is one generated tree member. Content is what lands on disk;
// Mode is applied after the write.
type File struct {
	Path    string
	Mode    os.FileMode
	Content []byte
}

type Options struct {
	Seed     int64
	Dirs     int
	PerDir   int
	MaxDepth int
}

func (o Options) withDefaults() Options {
	if o.Dirs == 0 {
		o.Dirs = 8
	}
	if o.PerDir == 0 {
		o.PerDir = 6
	}
	if o.MaxDepth == 0 {
		o.MaxDepth = 3
	}
	return o
}

var dirNames = []string{
	"src", "pkg", "data", "proto", "notebooks", "configs",
	"docs", "testdata", "fixtures", "models", "scripts", "raw",
}

var extensions = []string{
	".py", ".proto", ".csv", ".ipynb", ".yaml", ".txt", ".json", ".bin",
}

var stems = []string{
	"train", "eval", "schema", "pipeline", "labels", "util",
	"config", "export", "metrics", "sample", "index", "model",
}

// Generate produces a deterministic synthetic source tree: same
// options, same files, byte for byte. Paths are slash-separated,
// relative, sorted, and unique.
func Generate(opts Options) []File {
	opts = opts.withDefaults()
	rng := rand.New(rand.NewSource(opts.Seed))

	// The name pool under MaxDepth is finite, so the dir budget may
	// be unreachable; cap the attempts instead of spinning.
	dirs := []string{""}
	for attempts := 100 * (opts.Dirs + 1); len(dirs) < opts.Dirs+1 && attempts > 0; attempts-- {
		parent := dirs[rng.Intn(len(dirs))]
		depth := strings.Count(parent, "/")
		if parent != "" {
			depth++
		}
		if depth >= opts.MaxDepth {
			continue
		}
		name := dirNames[rng.Intn(len(dirNames))]
		d := name
		if parent != "" {
			d = parent + "/" + name
		}
		dirs = appendUnique(dirs, d)
	}

	seen := make(map[string]bool)
	var files []File
	for _, d := range dirs {
		for i := 0; i < opts.PerDir; i++ {
			ext := extensions[rng.Intn(len(extensions))]
			stem := stems[rng.Intn(len(stems))]
			name := stem + ext
			if rng.Intn(3) == 0 {
				name = fmt.Sprintf("%s_%02d%s", stem, rng.Intn(100), ext)
			}
			p := name
			if d != "" {
				p = d + "/" + name
			}
			if seen[p] {
				continue
			}
			seen[p] = true
			files = append(files, File{
				Path:    p,
				Mode:    0644,
				Content: content(rng, p, ext),
			})
		}
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})
	return files
}

// Write materializes files under root with their modes.
func Write(root string, files []File) error {
	for _, f := range files {
		full := filepath.Join(root, filepath.FromSlash(f.Path))
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			return fmt.Errorf("mkdir for %s: %w", f.Path, err)
		}
		if err := os.WriteFile(full, f.Content, 0644); err != nil {
			return fmt.Errorf("write %s: %w", f.Path, err)
		}
		if f.Mode != 0644 {
			if err := os.Chmod(full, f.Mode); err != nil {
				return fmt.Errorf("chmod %s: %w", f.Path, err)
			}
		}
	}
	return nil
}

func content(rng *rand.Rand, path, ext string) []byte {
	switch ext {
	case ".py":
		return []byte(fmt.Sprintf(
			"# %s\n\ndef run():\n    return %d\n", path, rng.Intn(1000),
		))
	case ".proto":
		return []byte(fmt.Sprintf(
			"syntax = \"proto3\";\n\nmessage M%d {\n  int64 id = 1;\n}\n",
			rng.Intn(1000),
		))
	case ".csv":
		var b strings.Builder
		b.WriteString("id,value\n")
		for i := 0; i < 3+rng.Intn(10); i++ {
			fmt.Fprintf(&b, "%d,%d\n", i, rng.Intn(10000))
		}
		return []byte(b.String())
	case ".ipynb":
		return []byte(fmt.Sprintf(
			`{"cells":[],"nbformat":4,"nbformat_minor":%d}`+"\n",
			rng.Intn(6),
		))
	case ".yaml":
		return []byte(fmt.Sprintf(
			"name: %s\nsteps: %d\n",
			strings.TrimSuffix(filepath.Base(path), ".yaml"),
			rng.Intn(20),
		))
	case ".json":
		return []byte(fmt.Sprintf(
			`{"path":%q,"n":%d}`+"\n", path, rng.Intn(1000),
		))
	case ".bin":
		buf := make([]byte, 64+rng.Intn(1024))
		rng.Read(buf)
		return buf
	}
	return []byte(fmt.Sprintf("%s: %d\n", path, rng.Intn(1000)))
}

func appendUnique(dirs []string, d string) []string {
	for _, existing := range dirs {
		if existing == d {
			return dirs
		}
	}
	return append(dirs, d)
}
