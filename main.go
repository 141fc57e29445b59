package main

import "github.com/killallgit/ieeg-clips/cmd"

// @title           iEEG Clip Engine API
// @version         1.0.0
// @description     Clip generation and annotation mapping for iEEG recordings
// @contact.name    API Support
// @contact.url     https://github.com/killallgit/ieeg-clips
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:8080
// @BasePath        /
// @schemes         http https
func main() {
	cmd.Execute()
}
