// Package components provides builders for the optional parts of the analytics client
// configuration, such as logging and HTTP settings, and small ready-made implementations of the
// collaborator interfaces in the interfaces package.
package components
