package distmeta

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/distkit/sdist/pkg/archive"
	"github.com/distkit/sdist/pkg/filelist"
	"github.com/distkit/sdist/pkg/pattern"
)

const DefaultName = "dist.toml"

type Meta struct {
	Name    string
	Version string
	Pack    PackConfig
	Check   CheckConfig
	Walk    WalkConfig
	Lock    LockConfig
}

type PackConfig struct {
	Format    archive.Format
	OutputDir string
}

type CheckConfig struct {
	Required []string
}

type WalkConfig struct {
	Exclude []string
}

type LockConfig struct {
	Digest filelist.DigestAlg
}

// Default returns the zero-config metadata used when no dist.toml
// exists: unnamed, gzip archives under dist/, sha256 lock digests.
func Default() *Meta {
	return &Meta{
		Pack: PackConfig{
			Format:    archive.FormatGzip,
			OutputDir: "dist",
		},
		Lock: LockConfig{
			Digest: filelist.DigestSHA256,
		},
	}
}

type fileMeta struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
	Pack    struct {
		Format    string `toml:"format"`
		OutputDir string `toml:"output_dir"`
	} `toml:"pack"`
	Check struct {
		Required []string `toml:"required"`
	} `toml:"check"`
	Walk struct {
		Exclude []string `toml:"exclude"`
	} `toml:"walk"`
	Lock struct {
		Digest string `toml:"digest"`
	} `toml:"lock"`
}

func Load(path string) (*Meta, error) {
	cfg := Default()

	var raw fileMeta
	md, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		keys := make([]string, len(undec))
		for i, k := range undec {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf(
			"%s: unknown keys: %s",
			path, strings.Join(keys, ", "),
		)
	}

	cfg.Name = strings.TrimSpace(raw.Name)
	cfg.Version = strings.TrimSpace(raw.Version)
	if md.IsDefined("pack", "format") {
		format, err := archive.ParseFormat(raw.Pack.Format)
		if err != nil {
			return nil, fmt.Errorf("%s: [pack]: %w", path, err)
		}
		cfg.Pack.Format = format
	}
	if md.IsDefined("pack", "output_dir") {
		cfg.Pack.OutputDir = strings.TrimSpace(raw.Pack.OutputDir)
	}
	if md.IsDefined("check", "required") {
		cfg.Check.Required = raw.Check.Required
	}
	if md.IsDefined("walk", "exclude") {
		cfg.Walk.Exclude = raw.Walk.Exclude
	}
	if md.IsDefined("lock", "digest") {
		alg, err := filelist.ParseDigestAlg(raw.Lock.Digest)
		if err != nil {
			return nil, fmt.Errorf("%s: [lock]: %w", path, err)
		}
		if alg == filelist.DigestNone {
			alg = filelist.DigestSHA256
		}
		cfg.Lock.Digest = alg
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (m *Meta) validate() error {
	if m.Name != "" {
		if err := checkNameToken("name", m.Name); err != nil {
			return err
		}
	}
	if m.Version != "" {
		if err := checkNameToken("version", m.Version); err != nil {
			return err
		}
	}
	if m.Pack.OutputDir == "" {
		return fmt.Errorf("[pack]: output_dir must not be empty")
	}
	for _, p := range m.Check.Required {
		if _, err := pattern.CompileAuto(p); err != nil {
			return fmt.Errorf("[check]: required: %w", err)
		}
	}
	if _, err := pattern.CompileExcludes(m.Walk.Exclude); err != nil {
		return fmt.Errorf("[walk]: exclude: %w", err)
	}
	return nil
}

// ArchiveStem is the name-version prefix used both as the archive
// file stem and as the top-level directory inside the archive.
func (m *Meta) ArchiveStem() (string, error) {
	if m.Name == "" {
		return "", fmt.Errorf("dist.toml: name is required for pack")
	}
	if m.Version == "" {
		return "", fmt.Errorf("dist.toml: version is required for pack")
	}
	return m.Name + "-" + m.Version, nil
}

func checkNameToken(field, v string) error {
	if strings.ContainsAny(v, "/\\ \t") {
		return fmt.Errorf(
			"%s %q must not contain separators or whitespace",
			field, v,
		)
	}
	return nil
}
