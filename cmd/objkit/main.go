// objkit inspects and exercises the objkit object runtime.
package main

func main() {
	execute()
}
