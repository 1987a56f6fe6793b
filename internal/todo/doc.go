// Package todo defines a single task and how it is shown to the user.
//
// Tasks are stored as an ordered JSON array (see package store):
//
//	[
//	  {
//	    "name": "Buy milk",
//	    "description": "2 litres, semi-skimmed",
//	    "done": false
//	  }
//	]
//
// A task has no identifier of its own. The REPL refers to tasks by their
// 1-based position in the current list, so deleting a task shifts every
// later task down by one.
//
// # Rendering
//
// A task renders as a single line with a completion mark:
//
//	[ ] Buy milk
//	[✔] Buy milk
//
// Details renders a multi-line view with name, description and state.
package todo
