package constants

import "strings"

// PageTextExtension is the extension of per-page manifest text files produced
// by the upstream document conversion step.
const PageTextExtension = "txt"

// LabelExtensions holds the allowed file extensions for postage label images.
var LabelExtensions = map[string]struct{}{
	"png":  {},
	"jpg":  {},
	"jpeg": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
