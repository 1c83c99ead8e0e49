// Command normalize reads an invoice document as JSON and prints its
// canonical form. Useful for checking how a legacy document will be
// reshaped before importing it.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/inkwell-apps/invoicer/internal/normalize"
)

func main() {
	input := flag.String("in", "-", "Path to the invoice JSON (- for stdin)")
	flag.Parse()

	data, err := readInput(*input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read input: %v\n", err)
		os.Exit(1)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid JSON: %v\n", err)
		os.Exit(1)
	}

	invoice := normalize.NormalizeInvoice(doc)

	out, err := json.MarshalIndent(invoice, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to serialize invoice: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
