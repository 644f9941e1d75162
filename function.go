// Package diderot exposes the digest API as a Cloud Functions HTTP
// target.
package diderot

import (
	"os"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"

	"diderot/internal/transport/server"
)

// defaultFunctionTarget is the registration name used when
// FUNCTION_TARGET is not set.
const defaultFunctionTarget = "DiderotDigest"

func init() {
	target := os.Getenv("FUNCTION_TARGET")
	if target == "" {
		target = defaultFunctionTarget
	}
	functions.HTTP(target, server.HandleRequest)
}
