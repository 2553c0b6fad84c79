// Package main is the entry point for the toastd toast daemon and its CLI.
package main

func main() {
	Execute()
}
