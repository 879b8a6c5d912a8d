package server

//go:generate swag init -d ../../ -g internal/server/swagger.go -o ./docs

// @title File Malware Scanner API
// @version 1.0.0
// @description An API to scan files for malware using VirusTotal.
// @contact.name vtscan maintainers
// @BasePath /
