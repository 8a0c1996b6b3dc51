// Package selector implements the dependent-selection state machine behind the country -> state -> city selector.
//
// Model owns the Selection, the OptionSet, and the single error message. It is mutated only from one goroutine (the UI event loop):
//   - SelectAt commits a selection change, clears every deeper selection and option list, and returns the Request for the next level, if one can be
//     made.
//   - Apply reconciles a Result into the OptionSet and the error message.
//
// Controller is the asynchronous half: Fetch turns a Request into a Result by calling a Fetcher. A Result only ever writes the option slot named by its
// own Request level, so results arriving out of order cannot corrupt other levels. By default a late Result for a level is still applied (the newest
// arrival wins); WithDiscardStale makes Model drop Results superseded by a newer Request for the same level.
package selector
