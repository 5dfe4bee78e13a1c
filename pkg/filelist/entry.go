package filelist

type Entry struct {
	Path   string `json:"path" yaml:"path"`
	Size   int64  `json:"size" yaml:"size"`
	Mode   int    `json:"mode" yaml:"mode"`
	Digest string `json:"digest,omitempty" yaml:"digest,omitempty"`
}
