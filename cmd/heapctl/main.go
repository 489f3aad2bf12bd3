// Command heapctl replays allocation traces through a checking heap and
// reports statistics, leaks and memory misuse.
package main

import "os"

func main() {
	os.Exit(execute())
}
