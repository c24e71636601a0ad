// Package script loads adapter specs written in Lua, so new tool
// integrations can be dropped in without recompiling.
//
// A spec script returns one table:
//
//	return {
//	    name = "demolint",
//	    command = {"demolint", "demolint-cli"},
//	    filetypes = {"go"},
//	    default_severity = "warning",
//	    severity_map = { ["2"] = "error", ["1"] = "warning" },
//	    args = function(ctx)
//	        return {"--format", "json", ctx.file}
//	    end,
//	    validate = function(result)
//	        return result.message ~= nil
//	    end,
//	    transform = function(result, ctx)
//	        return {
//	            lnum = result.line - 1,
//	            col = result.column - 1,
//	            message = result.message,
//	            severity = tostring(result.severity),
//	        }
//	    end,
//	}
//
// name, command, args, validate, and transform are required; loading
// fails otherwise. command takes a single executable name or an
// ordered candidate list, and the key executable is accepted as an
// alias. Severities may be given by name (error, warning, information,
// hint) or ordinal (1-4); unmapped values are errors, not guesses.
//
// Scripts run in a sandbox: only the base, table, string, and math
// libraries are available, and io, os, and code loading are removed.
// Each spec owns one interpreter and serializes calls into it, so a
// loaded Spec is safe to hand to concurrent scans.
package script
