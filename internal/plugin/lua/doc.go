// Package lua runs user scripts in a sandboxed gopher-lua state.
//
// Scripts reach the editor through the "rst" module, available both as a
// global and through require. They register commands that become
// dispatcher actions under the "script." prefix:
//
//	local rst = require("rst")
//
//	rst.command("shout", function(action)
//	    local sel = rst.selections()[1]
//	    local n = sel.active.line
//	    rst.set_line(n, string.upper(rst.line(n)))
//	end)
//
// Inside a command the document functions (line, replace, insert,
// selections...) act on the document of the dispatch. Every edit of one
// command lands in a single undo step. The pure functions (toggle,
// parse_marker, create_table...) work at load time too.
//
// The sandbox opens only the base, string, table and math libraries,
// removes file loading, and limits require to those libraries and the
// preloaded modules. Every chunk and call runs under an execution
// timeout.
package lua
