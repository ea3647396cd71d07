package constants

// Tool name and related constants
const (
	// ToolName is the name of this tool
	ToolName = "jstrace"

	// ConfigFileName is the default config file name
	ConfigFileName = ".jstrace.toml"

	// EnvVarPrefix is the prefix for environment variables
	EnvVarPrefix = "JSTRACE"
)

// AnonymousDefaultExportName is the reserved local name synthesized for
// anonymous default exports (`export default <expr>`). The leading '['
// is not a legal identifier start, so it can never collide with a user
// binding. Namespace and star-re-export expansion skip it, and the
// materializers flag it.
const AnonymousDefaultExportName = "[[anonymous_default_export]]"

// DefaultProjectName is used by the database exporter until
// cross-project tracing lands.
const DefaultProjectName = "default_project"

// DefaultExtensions is the recognized source extension set, in probe
// order for specifier resolution.
var DefaultExtensions = []string{
	".js", ".jsx", ".ts", ".tsx", ".d.ts", ".mjs", ".cjs", ".mts", ".cts",
}

// DefaultExcludeDirs are directory names skipped during candidate
// discovery.
var DefaultExcludeDirs = []string{
	"node_modules", ".git", "dist", "build", "coverage",
}
