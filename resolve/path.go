package resolve

import (
	"path"
	"slices"
	"strings"
)

// defaultEntryPoint is used instead of the running script name when site
// declares custom entry point.
const defaultEntryPoint = "index.php"

// PathResolver maps image reference to local filesystem path.
type PathResolver interface {
	LocalPath(ref string) string
}

// ContextSource supplies translation context for every lookup, so callers
// may vary it per request (for example when the entry point script changes).
type ContextSource interface {
	PathContext() PathContext
}

// PathContext is site configuration snapshot needed to turn public URLs
// into local paths. It is never modified by this package.
type PathContext struct {
	// RootPath is site root directory on the local filesystem.
	RootPath string
	// BaseURL and SecureBaseURL are public URLs site is served under.
	BaseURL       string
	SecureBaseURL string
	// UseRewrites is set when entry point script name is hidden from URLs.
	UseRewrites bool
	// CustomEntryPoint forces defaultEntryPoint as the script name.
	CustomEntryPoint bool
	// ScriptFilename is the path of the script serving current request.
	ScriptFilename string
	// SignStatic is set when static asset URLs carry deployment version.
	SignStatic        bool
	DeploymentVersion string
}

// PathContext allows fixed snapshot to be used as ContextSource.
func (pc PathContext) PathContext() PathContext {
	return pc
}

// LocalPath translates ref into local filesystem path. References which do
// not look like URLs are returned as is. URLs which are not under any base
// URL come back unchanged apart from the static and media rewriting below,
// so the result must still be checked for existence.
func (pc PathContext) LocalPath(ref string) string {
	if !isURL(ref) {
		return ref
	}

	root := pc.root()
	local := ref
	for _, base := range pc.baseURLs() {
		if rest, ok := strings.CutPrefix(ref, base); ok {
			local = root + rest
			break
		}
	}
	return pc.Localize(local)
}

// Localize converts path relative to the site root to the actual location of
// the file: versioned static segment is removed when assets are signed and
// media and static directories are looked up under public web root.
func (pc PathContext) Localize(local string) string {
	if pc.SignStatic && strings.Contains(local, "/static/version") {
		local = strings.ReplaceAll(local, "static/version"+pc.DeploymentVersion, "static")
	}

	root := pc.root()
	for _, dir := range [...]string{"media/", "static/"} {
		if rest, ok := strings.CutPrefix(local, root+dir); ok {
			return root + "pub/" + dir + rest
		}
	}
	return local
}

func (pc PathContext) root() string {
	if len(pc.RootPath) == 0 || strings.HasSuffix(pc.RootPath, "/") {
		return pc.RootPath
	}
	return pc.RootPath + "/"
}

func (pc PathContext) entryPoint() string {
	if pc.CustomEntryPoint {
		return defaultEntryPoint
	}
	if len(pc.ScriptFilename) == 0 {
		return ""
	}
	return path.Base(strings.ReplaceAll(pc.ScriptFilename, "\\", "/"))
}

// baseURLs returns URL prefixes to be replaced with site root, longest first.
// Every prefix ends with "/".
// Without rewrites links may be generated with or without script name in
// them, so both forms are accepted.
func (pc PathContext) baseURLs() []string {
	var entry string
	if !pc.UseRewrites {
		entry = pc.entryPoint()
	}

	var urls []string
	for _, base := range [...]string{pc.BaseURL, pc.SecureBaseURL} {
		if len(base) == 0 {
			continue
		}
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		candidates := []string{base}
		if len(entry) > 0 {
			// whole trailing segment only, "myindex.php/" is not an entry point
			if rest, ok := strings.CutSuffix(base, entry+"/"); ok && strings.HasSuffix(rest, "/") {
				base = rest
			}
			candidates = []string{base + entry + "/", base}
		}
		for _, c := range candidates {
			if !slices.Contains(urls, c) {
				urls = append(urls, c)
			}
		}
	}

	slices.SortStableFunc(urls, func(a, b string) int {
		return len(b) - len(a)
	})
	return urls
}
