/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/phytobsa/phytobsa/cmd"

func main() {
	cmd.Execute()
}
