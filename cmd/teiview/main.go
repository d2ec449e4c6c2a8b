// Command teiview inspects TEI editions from the command line: documents,
// pages, named entities and project information.
package main

func main() {
	Execute()
}
