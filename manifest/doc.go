// Package manifest reads instrumentation manifests.
//
// ParseTree turns an XML document into a plain element tree of names,
// attributes and children. FromTree layers the typed view the generator works
// with on top of it:
//
//	manifest
//	└── provider (name, guid, symbol)
//	    ├── template (tid)
//	    │   ├── data (name, inType, count | length)
//	    │   └── struct (name, count)
//	    │       └── data ...
//	    └── event (symbol, template, task, value)
//
// No template resolution happens here; see package template.
package manifest
