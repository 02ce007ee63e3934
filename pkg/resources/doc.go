// Package resources holds the application's string-resource table: the
// named, per-language message templates a push payload can reference with a
// "locKey" instead of carrying literal text.
//
// Templates use Java-style format verbs because that is what payload
// producers already write for the Android side of the application:
//
//	"new_message": "%1$s sent you %2$s"
//	"badge":       "You have %d unread items"
//
// Positional (%1$s) and sequential (%s, %d) verbs may be mixed; %% is a
// literal percent sign and %n a newline. Every argument is a string.
//
// # Loading
//
// A Table is filled once from an Adapter and can be reloaded later:
//
//	table, err := resources.New(ctx,
//	    resources.NewFileAdapter("strings.yaml"),
//	    resources.WithLanguage("de-AT"),
//	)
//	text, ok := table.Get("new_message", "Ann", "a photo")
//
// Adapters return language -> key -> value maps; nested maps are flattened
// into dotted keys. MapAdapter serves in-memory data, FileAdapter a single
// JSON or YAML file and FSAdapter every supported file in an fs.FS directory
// (embed.FS included).
//
// The active language is matched against the loaded languages with
// golang.org/x/text/language, so "de-AT" resolves to "de" when only "de" is
// available. Lookups that miss in the active language fall back to the
// fallback language (English by default).
package resources
