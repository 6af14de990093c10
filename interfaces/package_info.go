// Package interfaces contains the interfaces through which the analytics client talks to its
// host platform (device information, identifier sources, preference storage, clocks), together
// with the configuration types produced by the builders in the components package.
//
// Applications normally only need these types when they supply their own implementation of
// a platform collaborator.
package interfaces
