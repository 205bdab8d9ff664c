package platform

import (
	"context"
	"os/exec"
)

// StaticAuthorizer reports a fixed grant. Used in tests and on hosts where
// input control needs no runtime permission.
type StaticAuthorizer struct {
	Grant bool
}

func (a StaticAuthorizer) Granted(ctx context.Context) bool { return a.Grant }

// ToolAuthorizer treats the presence of the delivery tool on PATH as the
// authorization signal: without the tool no tier can inject input, which
// is indistinguishable from a revoked grant to the operator.
type ToolAuthorizer struct {
	Tool string
}

func (a ToolAuthorizer) Granted(ctx context.Context) bool {
	_, err := exec.LookPath(a.Tool)
	return err == nil
}
