package shell

import "strings"

// fixedEnv pins tool output to English and UTF-8 so results read the same
// on every host.
var fixedEnv = map[string]string{
	"DOTNET_CLI_UI_LANGUAGE": "en-US",
	"LC_ALL":                 "C.UTF-8",
	"LANG":                   "C.UTF-8",
}

// BuildEnv returns base with the fixed locale variables overriding any
// existing values.
func BuildEnv(base []string) []string {
	env := make([]string, 0, len(base)+len(fixedEnv))
	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		if _, fixed := fixedEnv[key]; fixed {
			continue
		}
		env = append(env, kv)
	}
	for _, key := range []string{"DOTNET_CLI_UI_LANGUAGE", "LC_ALL", "LANG"} {
		env = append(env, key+"="+fixedEnv[key])
	}
	return env
}
