package discovery

import (
	"fmt"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ReadSource reads a source file and normalizes it to UTF-8. UTF-16 files
// (both endiannesses) are transcoded when they carry a BOM; a UTF-8 BOM is
// stripped. Everything else passes through unchanged, since the scanner is
// byte-oriented and tolerates arbitrary bytes inside literals and comments.
func ReadSource(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	t := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	decoded, _, err := transform.Bytes(t, raw)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return string(decoded), nil
}
