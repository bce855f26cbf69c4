// NIM Proxy is an OpenAI-compatible gateway in front of NVIDIA NIM.
//
// It accepts OpenAI-style chat-completion requests, fills in default
// parameters, strips markup from message content and forwards the request
// to the configured inference API, relaying the response unchanged.
//
// Usage:
//
//	# Start the gateway on :3000 with defaults and environment
//	nimproxy run
//
//	# Start with a configuration file and hot reload
//	nimproxy run --config nimproxy.yaml --watch
//
//	# List the models available to the configured credential
//	nimproxy models
//
//	# Check a configuration file
//	nimproxy validate --config nimproxy.yaml
//
//	# Show version information
//	nimproxy version
package main

func main() {
	Execute()
}
