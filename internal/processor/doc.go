// Package processor runs the operations behind the wordloop commands. It
// loads the settings, opens the word store and the statistics database,
// and hands a drill controller to the GUI or the terminal front end.
package processor
