package genes

import (
	_ "embed"
	"strings"
)

//go:embed runtime.ts
var runtimeSource string

// Exported symbols of the runtime file.
const (
	runtimeRPC          = "RPC"
	runtimeBigIntString = "BigIntString"
	runtimeBytesString  = "BytesString"
)

func runtimeContent() string {
	var sb strings.Builder
	sb.WriteString(header(""))
	sb.WriteString("\n")
	sb.WriteString(runtimeSource)
	return sb.String()
}
