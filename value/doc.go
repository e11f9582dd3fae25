// Package value provides the basic value classes of the runtime: strings,
// numbers and byte data.
//
// Constructors named NewX return an instance the caller owns and must
// release. Factories named XWith return an autoreleased instance and need an
// autorelease pool on the calling goroutine.
package value
