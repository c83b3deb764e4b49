package main

import "github.com/ValentinKolb/dList/cmd"

func main() {
	cmd.Execute()
}
