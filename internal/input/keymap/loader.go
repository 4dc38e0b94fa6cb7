package keymap

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/tidwall/jsonc"
)

// bindingConfig is the JSON form of a binding, as in a VS Code
// keybindings.json file.
type bindingConfig struct {
	Key         string         `json:"key"`
	Command     string         `json:"command"`
	Args        map[string]any `json:"args,omitempty"`
	When        string         `json:"when,omitempty"`
	Description string         `json:"description,omitempty"`
}

// LoadFile adds the bindings of a JSON keybindings file to k.
func (k *Keymap) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening keymap file: %w", err)
	}
	defer f.Close()

	return k.LoadReader(f)
}

// LoadReader adds the bindings of a JSON array read from r to k. Comments
// and trailing commas are allowed. A command prefixed with '-' removes
// the bindings of its key instead.
func (k *Keymap) LoadReader(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading keymap: %w", err)
	}
	var configs []bindingConfig
	if err := json.Unmarshal(jsonc.ToJSON(data), &configs); err != nil {
		return fmt.Errorf("decoding keymap: %w", err)
	}

	for i, c := range configs {
		if len(c.Command) > 1 && c.Command[0] == '-' {
			if err := k.Unbind(c.Key); err != nil {
				return fmt.Errorf("binding %d: %w", i, err)
			}
			continue
		}
		b := Binding{Keys: c.Key, Action: c.Command, Args: c.Args, When: c.When, Description: c.Description}
		if err := k.AddBinding(b); err != nil {
			return fmt.Errorf("binding %d: %w", i, err)
		}
	}
	return nil
}

// SaveFile writes the bindings of k as a JSON keybindings file.
func (k *Keymap) SaveFile(path string) error {
	bindings := k.Bindings()
	configs := make([]bindingConfig, 0, len(bindings))
	for _, b := range bindings {
		configs = append(configs, bindingConfig{
			Key: b.Keys, Command: b.Action, Args: b.Args, When: b.When, Description: b.Description,
		})
	}

	data, err := json.MarshalIndent(configs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling keymap: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing keymap file: %w", err)
	}
	return nil
}
