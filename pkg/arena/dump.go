package arena

import (
	"bufio"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// SlotInfo describes a live slot for structured dumps.
type SlotInfo struct {
	Index Index  `yaml:"index"`
	Type  string `yaml:"type"`
	Refs  int    `yaml:"refs"`
	Prev  *Index `yaml:"prev,omitempty"`
}

// Snapshot lists every live slot in index order.
func (a *Arena) Snapshot() []SlotInfo {
	infos := make([]SlotInfo, 0, a.Live())
	for i, s := range a.slots {
		if s.refs == 0 {
			continue
		}
		info := SlotInfo{
			Index: Index(i),
			Type:  s.frame.Type.String(),
			Refs:  s.refs,
		}
		if prev, ok := s.frame.Previous(); ok {
			info.Prev = &prev
		}
		infos = append(infos, info)
	}
	return infos
}

// DumpDOT writes the live slots as a Graphviz digraph, one node per slot
// labeled with its type and reference count, and one edge per back-link.
func (a *Arena) DumpDOT(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "digraph Stacks {")
	for _, info := range a.Snapshot() {
		fmt.Fprintf(bw, "    node_%d [label=\"%s (%d)\"]\n", info.Index, info.Type, info.Refs)
		if info.Prev != nil {
			fmt.Fprintf(bw, "    node_%d -> node_%d\n", info.Index, *info.Prev)
		}
	}
	fmt.Fprintln(bw, "}")
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write dot dump: %w", err)
	}
	return nil
}

// DumpYAML writes the live slots as a YAML document.
func (a *Arena) DumpYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(struct {
		Slots []SlotInfo `yaml:"slots"`
	}{a.Snapshot()}); err != nil {
		return fmt.Errorf("encode yaml dump: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode yaml dump: %w", err)
	}
	return nil
}
