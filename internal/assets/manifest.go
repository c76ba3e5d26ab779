package assets

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manifest is the YAML description of the handles a host registers, plus the
// script handles each widget type declares.
//
//	styles:
//	  - handle: elementor-frontend
//	    src: /wp-content/plugins/elementor/assets/css/frontend.min.css
//	scripts:
//	  - handle: swiper
//	    src: /wp-content/plugins/elementor/assets/lib/swiper/swiper.min.js
//	widgets:
//	  image-carousel: [swiper]
type Manifest struct {
	Styles  []Handle            `yaml:"styles"`
	Scripts []Handle            `yaml:"scripts"`
	Widgets map[string][]string `yaml:"widgets"`
}

// LoadManifest decodes a manifest, stamping each handle with its section kind.
func LoadManifest(r io.Reader) (*Manifest, error) {
	var manifest Manifest
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&manifest); err != nil && err != io.EOF {
		return nil, fmt.Errorf("assets: decode manifest: %w", err)
	}
	for i := range manifest.Styles {
		manifest.Styles[i].Kind = KindStyle
	}
	for i := range manifest.Scripts {
		manifest.Scripts[i].Kind = KindScript
	}
	if manifest.Widgets == nil {
		manifest.Widgets = map[string][]string{}
	}
	return &manifest, nil
}

// LoadManifestFile reads a manifest from disk.
func LoadManifestFile(path string) (*Manifest, error) {
	f, err := os.Open(strings.TrimSpace(path))
	if err != nil {
		return nil, fmt.Errorf("assets: open manifest: %w", err)
	}
	defer f.Close()
	return LoadManifest(f)
}

// Handles returns styles followed by scripts.
func (m *Manifest) Handles() []Handle {
	if m == nil {
		return nil
	}
	out := make([]Handle, 0, len(m.Styles)+len(m.Scripts))
	out = append(out, m.Styles...)
	return append(out, m.Scripts...)
}

// Apply registers every handle of the manifest.
func (m *Manifest) Apply(registry *MemoryRegistry) error {
	if m == nil || registry == nil {
		return nil
	}
	return registry.Register(m.Handles()...)
}
