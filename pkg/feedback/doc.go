// Package feedback supplies the collaborators around the alignment engine:
// a snap-distance [Filter] that decides when an axis engages, and issuers
// that decide whether proposed feedback actually plays.
//
// The split mirrors how haptic alignment works on trackpads. The filter
// answers "is the rectangle close enough to snap?" for every sample. The
// [Player] answers "should the user feel it?", which is only true when the
// rectangle newly crosses into alignment and the same axis has not just
// fired.
package feedback
