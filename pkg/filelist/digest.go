package filelist

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/zeebo/blake3"
	"golang.org/x/sync/errgroup"
)

type DigestAlg string

const (
	DigestNone   DigestAlg = ""
	DigestSHA256 DigestAlg = "sha256"
	DigestBLAKE3 DigestAlg = "blake3"
)

func ParseDigestAlg(s string) (DigestAlg, error) {
	switch s {
	case "", "none":
		return DigestNone, nil
	case "sha256":
		return DigestSHA256, nil
	case "blake3":
		return DigestBLAKE3, nil
	}
	return "", fmt.Errorf("unknown digest algorithm %q", s)
}

func (a DigestAlg) newHash() hash.Hash {
	if a == DigestBLAKE3 {
		return blake3.New()
	}
	return sha256.New()
}

var digestBufs = sync.Pool{
	New: func() any {
		return make([]byte, 1<<20)
	},
}

func Annotate(
	root string,
	files []string,
	alg DigestAlg,
) ([]Entry, error) {
	entries := make([]Entry, len(files))

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, rel := range files {
		g.Go(func() error {
			e, err := statFile(root, rel, alg)
			if err != nil {
				return err
			}
			entries[i] = e
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}

func statFile(root, rel string, alg DigestAlg) (Entry, error) {
	f, err := os.Open(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		return Entry{}, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Entry{}, err
	}
	e := Entry{
		Path: rel,
		Size: info.Size(),
		Mode: int(info.Mode().Perm()),
	}
	if alg == DigestNone {
		return e, nil
	}

	h := alg.newHash()
	buf := digestBufs.Get().([]byte)
	defer digestBufs.Put(buf)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return Entry{}, err
	}
	e.Digest = hex.EncodeToString(h.Sum(nil))
	return e, nil
}
