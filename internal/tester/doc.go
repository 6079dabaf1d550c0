// Package tester generates regex test reports.
//
// Generator.Run takes a model.TestRequest through a fixed sequence:
// validate the request, render the header, compile the pattern, evaluate
// every non-empty sample, and close the report. Each stage can fail, and
// a failure after the header keeps whatever was rendered so far:
//
//	Init -> Validated -> Compiled -> Evaluating(i) -> Assembled -> Done
//	           |             |              |
//	           v             v              v
//	       validation     compile       evaluation
//
// Failures are returned as data in model.TestOutput, never as Go errors,
// so every request produces exactly one output.
//
// BatchRunner evaluates many requests concurrently while keeping their
// order.
package tester
