// Package scenario replays scripted edits against a document and checks
// where its tracked pointers end up.
//
// A scenario is a YAML document:
//
//	name: greedy end then delete all
//	length: 30
//	markers:
//	  - name: m
//	    start: 10
//	    end: 20
//	    greedy_right: true
//	steps:
//	  - name: insert at the end
//	    edits:
//	      - length: {at: 20, old: 0, new: 5}
//	    expect:
//	      m: [10, 25]
//	  - name: delete everything
//	    edits:
//	      - delete: {start: 0, end: 30}
//	    expect:
//	      m: null
//
// Documents start from text or, for content-agnostic runs, from a length.
// Each step applies its edits in order, optionally commits, and then
// compares the expected ranges; null expects the pointer to have lost its
// position. Runner records every mismatch in its Report and traces
// scenarios and steps with OpenTelemetry.
package scenario
