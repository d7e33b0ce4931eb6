package data

import (
	"fmt"
	"os"

	"github.com/aorandomizer/randomizer/internal/race"
	"gopkg.in/yaml.v3"
)

// PresetTable holds preset rosters in file order.
//
// Two layouts are accepted. A mapping from label to names (JSON objects
// parse as YAML mappings, so presets.json files load unchanged):
//
//	Platform Team: [Alice, Bob]
//	Leads: [Carol]
//
// or a list of entries:
//
//	- label: Platform Team
//	  names: [Alice, Bob]
type PresetTable struct {
	presets []race.Preset
}

type presetYAMLEntry struct {
	Label string   `yaml:"label"`
	Names []string `yaml:"names"`
}

// LoadPresetTable loads a preset file. Errors wrap race.ErrPresetLoad.
func LoadPresetTable(path string) (*PresetTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", race.ErrPresetLoad, path, err)
	}
	t, err := ParsePresets(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", race.ErrPresetLoad, path, err)
	}
	return t, nil
}

// ParsePresets decodes preset data in either layout.
func ParsePresets(raw []byte) (*PresetTable, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	t := &PresetTable{}
	if len(doc.Content) == 0 {
		return t, nil // empty file
	}

	root := doc.Content[0]
	switch root.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(root.Content); i += 2 {
			var names []string
			if err := root.Content[i+1].Decode(&names); err != nil {
				return nil, fmt.Errorf("preset %q (line %d): %w", root.Content[i].Value, root.Content[i].Line, err)
			}
			t.presets = append(t.presets, race.Preset{Label: root.Content[i].Value, Names: names})
		}
	case yaml.SequenceNode:
		var entries []presetYAMLEntry
		if err := root.Decode(&entries); err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.Label == "" {
				return nil, fmt.Errorf("preset without label")
			}
			t.presets = append(t.presets, race.Preset{Label: e.Label, Names: e.Names})
		}
	default:
		return nil, fmt.Errorf("presets must be a mapping or a list, line %d", root.Line)
	}
	return t, nil
}

// Presets returns the presets in file order.
func (t *PresetTable) Presets() []race.Preset {
	out := make([]race.Preset, len(t.presets))
	copy(out, t.presets)
	return out
}

// Count returns the number of presets loaded.
func (t *PresetTable) Count() int {
	return len(t.presets)
}

// EncodePresets writes presets in the mapping layout, preserving order.
func EncodePresets(presets []race.Preset) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, p := range presets {
		names := &yaml.Node{Kind: yaml.SequenceNode}
		for _, n := range p.Names {
			names.Content = append(names.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: n})
		}
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: p.Label},
			names,
		)
	}
	return yaml.Marshal(root)
}
