// Command keygen prints a random master key for SECRETS_KEYS.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/lexcase/lexcase/pkg/secrets"
)

func main() {
	version := flag.Int("version", 1, "Key version to print in the SECRETS_KEYS entry")
	flag.Parse()

	if *version < 1 {
		fmt.Fprintln(os.Stderr, "Error: version must be at least 1")
		os.Exit(2)
	}

	key, err := secrets.GenerateKey()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer secrets.Zero(key)

	encoded := secrets.EncodeKey(key)
	fmt.Println(encoded)
	fmt.Fprintf(os.Stderr, "SECRETS_KEYS=%d:%s\n", *version, encoded)
}
