// Package plugin runs user transformations over a bundled document.
//
// A Plugin names the nodes it wants with a JSONPath expression and receives
// each match, together with its parent and location, in document order:
//
//	reg := plugin.NewRegistry()
//	reg.MustRegister("internal-tag", plugin.Func{
//	    Expression: "$.paths.*.*",
//	    ProcessFn: func(parent, key any, path document.Path, doc *document.Map) error {
//	        op := parent.(*document.Map)
//	        ...
//	        return nil
//	    },
//	})
//	reports, err := plugin.Run(doc, reg.Entries())
//
// Plugins may also implement Initializer and Finisher to see the whole
// document before and after their matches are processed.
//
// # Overlay plugins
//
// Plugins that only need to add, change or drop content can be written as
// YAML files in the plugins directory using the action format of the OpenAPI
// Overlay specification:
//
//	actions:
//	  - target: $.info
//	    update:
//	      x-logo: {url: logo.png}
//	  - target: $.paths.*[?@.x-internal==true]
//	    remove: true
//
// Each action becomes one plugin. Update merges into mappings, appends to
// sequences and replaces any other value. Remove takes precedence over Update.
package plugin
