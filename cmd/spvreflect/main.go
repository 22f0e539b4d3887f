// Command spvreflect is a CLI wrapper around the spirq library: it is the
// Go-native analogue of the teacher's cmd/spvdis disassembler and cmd/nagac
// compiler CLI, upgraded to cobra subcommands since the reflector, unlike
// either of those single-purpose tools, has more than one thing to do to a
// .spv file.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gogpu/spirq"
	"github.com/gogpu/spirq/types"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "spvreflect",
		Short:         "Inspect SPIR-V shader pipeline interfaces",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newDumpCmd())
	return root
}

func newDumpCmd() *cobra.Command {
	var indent bool

	cmd := &cobra.Command{
		Use:   "dump <file.spv>",
		Short: "Reflect a SPIR-V module and print its entry points as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			eps, err := spirq.ReflectBytes(data)
			if err != nil {
				return err
			}

			out := make([]entryPointJSON, len(eps))
			for i, ep := range eps {
				out[i] = toJSON(ep)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			if indent {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(out)
		},
	}
	cmd.Flags().BoolVar(&indent, "indent", true, "pretty-print the JSON output")
	return cmd
}

// entryPointJSON is the wire shape dump prints: manifest.Manifest's maps are
// unexported (mutation must go through its setters), so this flattens the
// accessor views (Inputs/Outputs/Descs/GetPushConst) into marshalable slices.
type entryPointJSON struct {
	Model       string           `json:"model"`
	Name        string           `json:"name"`
	Inputs      []interfaceJSON  `json:"inputs,omitempty"`
	Outputs     []interfaceJSON  `json:"outputs,omitempty"`
	PushConst   *types.Struct    `json:"pushConstant,omitempty"`
	Descriptors []descriptorJSON `json:"descriptors,omitempty"`
}

type interfaceJSON struct {
	Location  uint32     `json:"location"`
	Component uint32     `json:"component,omitempty"`
	Name      string     `json:"name,omitempty"`
	Kind      string     `json:"kind"`
	Type      types.Type `json:"type"`
}

type descriptorJSON struct {
	Set     uint32               `json:"set"`
	Binding uint32               `json:"binding"`
	Name    string               `json:"name,omitempty"`
	Kind    string               `json:"kind"`
	Type    types.DescriptorType `json:"type"`
	Access  string               `json:"access"`
}

// kindOf names v's concrete variant, since Type/DescriptorType are closed
// interfaces and the JSON of the underlying struct alone doesn't say which
// one it is.
func kindOf(v any) string {
	name := reflect.TypeOf(v).String()
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

func toJSON(ep spirq.EntryPoint) entryPointJSON {
	m := ep.Manifest
	out := entryPointJSON{Model: ep.Model.String(), Name: ep.Name}

	for _, in := range m.Inputs() {
		name, _ := m.GetInputName(in.Location)
		out.Inputs = append(out.Inputs, interfaceJSON{
			Location: in.Location.Location, Component: in.Location.Component, Name: name, Kind: kindOf(in.Type), Type: in.Type,
		})
	}
	for _, o := range m.Outputs() {
		name, _ := m.GetOutputName(o.Location)
		out.Outputs = append(out.Outputs, interfaceJSON{
			Location: o.Location.Location, Component: o.Location.Component, Name: name, Kind: kindOf(o.Type), Type: o.Type,
		})
	}
	if pc, ok := m.GetPushConst(); ok {
		out.PushConst = &pc
	}
	for _, d := range m.Descs() {
		name, _ := m.GetDescName(d.Binding)
		out.Descriptors = append(out.Descriptors, descriptorJSON{
			Set: d.Binding.Set, Binding: d.Binding.Binding, Name: name, Kind: kindOf(d.Type), Type: d.Type, Access: d.Access.String(),
		})
	}
	return out
}
