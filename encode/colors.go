package encode

import (
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/signadot/docgraph/schema"
)

type Colorable struct {
	Kind schema.Kind
	Attr ColorAttr
}

type ColorAttr int

const (
	LabelColor ColorAttr = iota
	ValueColor
	VariantColor
	SepColor
	CountColor
	ErrorColor
	LocationColor
)

type Colors struct {
	Default func(string, ...any) string
	Map     map[Colorable]func(string, ...any) string
}

// noKind keys the colors of things that are not nodes, such as
// diagnostic locations.
const noKind = schema.InvalidKind

func NewColors() *Colors {
	colors := &Colors{
		Default: colorDefault,
		Map:     map[Colorable]func(string, ...any) string{},
	}
	for _, k := range schema.Kinds() {
		able := Colorable{Kind: k, Attr: LabelColor}
		colors.Map[able] = color.RGB(128, 168, 196).SprintfFunc()
		able.Attr = SepColor
		colors.Map[able] = color.RGB(255, 0, 196).SprintfFunc()
		able.Attr = CountColor
		colors.Map[able] = color.RGB(96, 96, 96).SprintfFunc()
		able.Attr = ErrorColor
		colors.Map[able] = color.RedString
	}
	able := Colorable{Attr: ValueColor}

	able.Kind = schema.NumberKind
	colors.Map[able] = color.RGB(128, 216, 236).SprintfFunc()

	able.Kind = schema.BoolKind
	colors.Map[able] = color.CyanString

	able.Kind = schema.TextKind
	colors.Map[able] = color.RGB(8, 196, 16).SprintfFunc()

	able.Kind = schema.ReferenceKind
	colors.Map[able] = color.RGB(196, 168, 128).SprintfFunc()

	able.Kind = schema.StateGroupKind
	able.Attr = VariantColor
	colors.Map[able] = color.RGB(74, 92, 138).SprintfFunc()

	able.Kind = noKind
	able.Attr = LocationColor
	colors.Map[able] = color.New(color.Bold).SprintfFunc()
	able.Attr = ErrorColor
	colors.Map[able] = color.RedString
	for k, f := range colors.Map {
		colors.Map[k] = func(v string, _ ...any) string {
			return f(strings.ReplaceAll(v, "%", "%%"))
		}
	}
	return colors
}

// AutoColors returns NewColors when f is a terminal and nil otherwise.
func AutoColors(f *os.File) *Colors {
	if f == nil || !isatty.IsTerminal(f.Fd()) {
		return nil
	}
	return NewColors()
}

func colorDefault(v string, _ ...any) string { return v }

func (c *Colors) Color(k schema.Kind, a ColorAttr, s string) string {
	return c.Get(k, a)(s)
}

func (c *Colors) Get(k schema.Kind, a ColorAttr) func(string, ...any) string {
	f := c.Map[Colorable{Kind: k, Attr: a}]
	if f == nil {
		return c.Default
	}
	return f
}
