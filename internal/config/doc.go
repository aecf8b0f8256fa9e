// Package config turns on-disk settings files into the ordered permission
// levels the policy resolver consumes, and reads runtime knobs from the
// environment.
//
// # Levels
//
// LoadLevels probes, most specific first:
//
//  1. AGENTGATE_PERMISSIONS inline JSON ("env" level, only when set)
//  2. <dir>/.agentgate/settings.local.{json,jsonc,yaml} ("local")
//  3. <dir>/.agentgate/settings.{json,jsonc,yaml} ("project")
//  4. ~/.config/agentgate/settings.{json,jsonc,yaml} ("user")
//
// Each file contributes one level; the resolver consults them in this
// order, so a local allow can override a user deny. The engine itself
// never infers ordering; it lives here, in the loader.
//
// A settings file looks like:
//
//	{
//	  "permissions": {
//	    "allow": ["Bash(git status:*)", "Read"],
//	    "deny": ["Bash(rm:*)", "WebFetch(*)"]
//	  }
//	}
//
// JSONC comments and trailing commas are tolerated; .yaml files carry the
// same shape. A file that is missing or does not parse yields an empty
// level. Parsing problems are logged, never fatal: a broken settings file
// must degrade to "ask", not break the hook.
//
// # Runtime settings
//
// LoadSettings reads AGENTGATE_* environment variables (approval timeout,
// timeout action, webhook URL, data dir, abandonment threshold) with
// sensible defaults. See Settings.
package config
