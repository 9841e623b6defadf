// Package dupehash finds groups of byte-identical files in a directory tree
// by comparing file size and content digest.
//
// # Core API
//
// FindDuplicates runs the whole pipeline: a single-threaded traversal that
// applies the candidate filter, a bounded worker pool that hashes every
// candidate into a sharded GroupingStore, and an aggregation step that drops
// singletons and orders what is left.
//
//	opts := dupehash.DefaultScanOptions()
//	opts.Root = "/srv/photos"
//	opts.Recursive = true
//	report, err := dupehash.FindDuplicates(ctx, opts)
//	if err != nil {
//		return err
//	}
//	for _, group := range report.Groups {
//		fmt.Printf("%d bytes x %d: %v\n", group.Size, group.Count, group.Files)
//	}
//
// The stages are also usable on their own: Traverser.Walk produces the
// candidate list, Engine.Run hashes and groups it, and Aggregate orders a
// store snapshot.
//
// # Ordering
//
// Groups are ordered by size, then digest bytes. Paths inside a group are
// sorted bytewise. Given the same tree and options the output is identical
// from run to run regardless of worker scheduling.
//
// # Errors
//
// An invalid root, bad pattern or bad size bound is a *ConfigError and nothing
// is scanned. Entries that cannot be inspected during traversal end up in
// Report.Warnings, files that cannot be read end up in Report.HashErrors, and
// the rest of the run still completes. Set ScanOptions.FailFast to abort on the
// first hashing failure instead.
//
// # Configuration
//
// Settings can be layered from an INI or TOML file (LoadSettingsFile), from
// DUPEHASH_* environment variables (LoadEnvSettings) and from code. Logging
// goes through zerolog:
//
//	dupehash.SetVerboseLevel(2)
//	dupehash.SetDebugFlags("scan,hash")
package dupehash
