package internal

// Version is the current wordloop release
const Version = "0.3.0"
