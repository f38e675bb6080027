package encode

import (
	"bytes"
	"strings"

	"github.com/signadot/docgraph/ir"
)

func MustString(n ir.Node, opts ...EncodeOption) string {
	buf := bytes.NewBuffer(nil)
	if err := Tree(n, buf, opts...); err != nil {
		panic(err)
	}
	return strings.TrimSpace(buf.String())
}
