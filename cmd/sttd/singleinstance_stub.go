//go:build !windows

package main

// acquireSingleInstance is a no-op off Windows; there is no named
// kernel mutex to hold.
func acquireSingleInstance(name string) (release func(), ok bool, err error) {
	return func() {}, true, nil
}
