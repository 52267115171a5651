// Command jig evaluates attachment scripts and inspects the mode registry.
package main

func main() {
	Execute()
}
