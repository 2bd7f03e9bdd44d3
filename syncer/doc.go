// Package syncer writes an edited, bundled document back into the fragment
// files of a source tree.
//
// Every path item goes to its own file under paths/ and every definition to
// its own file under definitions/. A fragment keeps its current location, so
// files grouped into subdirectories stay where they are; new entries are
// created at the top of the directory, and fragments whose entry disappeared
// are deleted. Whatever remains of the document is written to the main file.
//
// A source tree without paths/ and definitions/ is a single-file tree: raw
// text input is then stored verbatim, preserving comments and formatting.
//
// Sync only writes files whose content changed (compared structurally, so
// key order alone is not a change). Running the same sync twice writes
// nothing the second time.
//
//	result, err := syncer.SyncWithOptions(body, syncer.WithBaseDir("spec"))
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("%d written, %d removed\n", result.Written, result.Removed)
package syncer
