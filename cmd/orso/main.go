// Command orso inspects ORSO reflectometry metadata: it validates header
// documents against the typed model and resolves sample-model descriptions
// into concrete layer stacks.
package main

func main() {
	Execute()
}
