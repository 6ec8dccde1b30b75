// Command chart computes Vedic astrology charts from birth data.
package main

func main() {
	Execute()
}
