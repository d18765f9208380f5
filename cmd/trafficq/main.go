// Command trafficq animates a four-way junction drained by a round-robin
// signal plan and by a greedy priority plan, then reports the comparison.
package main

func main() {
	Execute()
}
