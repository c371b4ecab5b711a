package slack

// SplitSections is exported for testing
var SplitSections = splitSections
