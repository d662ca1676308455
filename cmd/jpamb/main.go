// Command jpamb predicts the runtime outcome of decompiled JVM bytecode
// and debloats dead code out of the Java source it was compiled from.
package main

import (
	"fmt"
	"os"

	"github.com/magladko/jpamb-sub000/cmd/jpamb/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "jpamb: %v\n", err)
		os.Exit(1)
	}
}
