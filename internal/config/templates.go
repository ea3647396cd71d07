package config

import (
	"fmt"
	"strings"
)

// GetConfigTemplate renders a documented .jstrace.toml with the given
// translator identifiers and route pattern filled in.
func GetConfigTemplate(translatorNames []string, route RouteConfig) string {
	quoted := make([]string, len(translatorNames))
	for i, name := range translatorNames {
		quoted[i] = fmt.Sprintf("%q", name)
	}

	var sb strings.Builder
	sb.WriteString("# jstrace configuration\n")
	sb.WriteString("# Symbol-level dependency tracing for JavaScript/TypeScript projects.\n\n")

	sb.WriteString("[i18n]\n")
	sb.WriteString("# Calls to these identifiers with a string-literal first argument\n")
	sb.WriteString("# are recorded as translation usage.\n")
	sb.WriteString(fmt.Sprintf("translator_names = [%s]\n\n", strings.Join(quoted, ", ")))

	sb.WriteString("[routes]\n")
	sb.WriteString("# Structural pattern matched against JSX route declarations,\n")
	sb.WriteString("# e.g. <Route path=\"/home\" component={Home}/>.\n")
	sb.WriteString(fmt.Sprintf("element_name = %q\n", route.ElementName))
	sb.WriteString(fmt.Sprintf("path_attr = %q\n", route.PathAttr))
	sb.WriteString(fmt.Sprintf("target_attr = %q\n\n", route.TargetAttr))

	defaults := DefaultConfig()
	sb.WriteString("[analysis]\n")
	sb.WriteString("# Source extensions recognized during discovery and resolution.\n")
	sb.WriteString(fmt.Sprintf("extensions = [%s]\n", joinQuoted(defaults.Analysis.Extensions)))
	sb.WriteString("# Directory names skipped during discovery.\n")
	sb.WriteString(fmt.Sprintf("exclude_dirs = [%s]\n", joinQuoted(defaults.Analysis.ExcludeDirs)))
	sb.WriteString("# Abort the whole run on the first module parse error.\n")
	sb.WriteString("strict_parse = false\n")
	sb.WriteString("# Pre-scan workers (0 = number of CPUs).\n")
	sb.WriteString("concurrency = 0\n")

	return sb.String()
}

// GetDefaultConfigTemplate renders the template with default settings.
func GetDefaultConfigTemplate() string {
	defaults := DefaultConfig()
	return GetConfigTemplate(defaults.I18n.TranslatorNames, defaults.Routes)
}

func joinQuoted(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = fmt.Sprintf("%q", item)
	}
	return strings.Join(quoted, ", ")
}
