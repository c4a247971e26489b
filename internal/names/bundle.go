package names

import (
	"bytes"
	"context"
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"

	"github.com/Paintersrp/reap/internal/procs"
)

const bundleMarker = ".app"

// TruncateAtBundle cuts an executable path at its application-bundle
// boundary, e.g. "/Applications/Safari.app/Contents/MacOS/Safari" becomes
// "/Applications/Safari.app". ok is false when the path carries no bundle
// marker.
func TruncateAtBundle(path string) (string, bool) {
	idx := strings.Index(path, bundleMarker)
	if idx < 0 {
		return path, false
	}
	return path[:idx+len(bundleMarker)], true
}

// bundleDisplayName reads the declared display name from a bundle's property
// list, preferring CFBundleDisplayName over CFBundleName. Binary property
// lists and unreadable bundles yield ok=false.
func bundleDisplayName(appPath string) (string, bool) {
	data, err := os.ReadFile(filepath.Join(appPath, "Contents", "Info.plist"))
	if err != nil {
		return "", false
	}
	if bytes.HasPrefix(data, []byte("bplist")) {
		return "", false
	}

	values := plistStrings(data, "CFBundleDisplayName", "CFBundleName")
	if name := values["CFBundleDisplayName"]; name != "" {
		return name, true
	}
	if name := values["CFBundleName"]; name != "" {
		return name, true
	}
	return "", false
}

// plistStrings extracts top-level string values for the requested keys from
// an XML property list.
func plistStrings(data []byte, keys ...string) map[string]string {
	wanted := make(map[string]bool, len(keys))
	for _, k := range keys {
		wanted[k] = true
	}

	values := make(map[string]string, len(keys))
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.Strict = false

	var pendingKey string
	var inKey, inValue bool
	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "key":
				inKey = true
			case "string":
				inValue = pendingKey != ""
			default:
				pendingKey = ""
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "key":
				inKey = false
			case "string":
				inValue = false
				pendingKey = ""
			}
		case xml.CharData:
			text := strings.TrimSpace(string(t))
			if text == "" {
				continue
			}
			if inKey {
				if wanted[text] {
					pendingKey = text
				} else {
					pendingKey = ""
				}
			} else if inValue && pendingKey != "" {
				if _, done := values[pendingKey]; !done {
					values[pendingKey] = text
				}
				pendingKey = ""
			}
		}
	}
	return values
}

type bundleStrategy struct{}

func newBundleStrategy() bundleStrategy {
	return bundleStrategy{}
}

func (bundleStrategy) Name() string { return "bundle" }

// Lookup resolves the display name declared by the bundle that contains the
// process executable.
func (bundleStrategy) Lookup(_ context.Context, info procs.Info) (string, bool) {
	if info.Exe == "" {
		return "", false
	}
	appPath, ok := TruncateAtBundle(info.Exe)
	if !ok {
		return "", false
	}
	return bundleDisplayName(appPath)
}
