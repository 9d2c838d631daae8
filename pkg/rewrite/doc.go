// Package rewrite replaces one player or entity identifier with another
// across a saved world directory.
//
// A run walks the tree bottom-up and handles three kinds of occurrence:
//
//   - Text: UUID-shaped substrings, hyphenated or not and in any case, in
//     .txt, .json, .json5, .yaml and .yml bodies and in every file and
//     directory name.
//   - Tag documents (.dat, .mcc): long pairs named <prefix>UUIDMost and
//     <prefix>UUIDLeast, and 4-element int arrays or int lists.
//   - Region files (.mca): the same tag rules applied to every chunk.
//
// Only substrings and values equal to the source identifier change.
// Everything else, including other identifiers, is left byte-for-byte
// as it was.
//
// # Usage
//
//	o := rewrite.NewOrchestrator(
//		rewrite.WithLogger(logger),
//		rewrite.WithSink(rewrite.Sink{
//			OnRename: func(from, to string) { fmt.Println(from, "->", to) },
//		}),
//	)
//	result, err := o.Run(ctx, "/srv/world", oldID, newID)
//	if err != nil {
//		return err // invalid identifier, missing root or cancelled
//	}
//	if err := result.Err(); err != nil {
//		// some entries were skipped
//	}
//
// # Ordering
//
// Within a directory, subdirectories are walked first, then its files are
// rewritten, then its subdirectories are renamed. A directory is therefore
// renamed only after everything below it is done, and every path the walk
// uses still exists when it is used.
package rewrite
