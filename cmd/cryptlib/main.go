// Command cryptlib generates keys, signs and verifies messages, derives ECDH
// secrets and runs ML-KEM encapsulation from the command line.
package main

import (
	"crypto/rand"
	"os"
)

func main() {
	// On failure Cobra prints the error string, so we only need to exit with
	// a non-0 status.
	if newRootCmd(os.Stdout, rand.Reader).Execute() != nil {
		os.Exit(1)
	}
}
