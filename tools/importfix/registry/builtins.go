package registry

// builtinModules is the fixed enumeration of platform built-in module
// names registered at priority 3, version-tagged with the host runtime's
// own version string so a runtime upgrade invalidates their cache entries.
var builtinModules = []string{
	"assert", "async_hooks", "buffer", "child_process", "cluster", "console",
	"crypto", "dgram", "diagnostics_channel", "dns", "domain", "events",
	"fs", "fs/promises", "http", "http2", "https", "inspector", "module",
	"net", "os", "path", "perf_hooks", "process", "punycode", "querystring",
	"readline", "repl", "stream", "stream/promises", "string_decoder",
	"sys", "timers", "tls", "trace_events", "tty", "url", "util", "v8",
	"vm", "worker_threads", "zlib",
}

// runtimeVersion is substituted for the builtin entries' cache version.
// Pinned rather than read from an actual engine, since the registry has no
// Node runtime to introspect — builtins are registered by name only, never
// probed for real exports.
const runtimeVersion = "builtin-1"
