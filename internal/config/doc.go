// Package config loads the storefront configuration.
//
// The configuration is stored in storefront.json next to the binary or in the
// directory given to the CLI. Every field can be overridden by a STOREFRONT_*
// environment variable, which is how containers configure the server.
//
// # Configuration File Structure
//
//	{
//	  "name": "storefront",
//	  "server": {
//	    "host": "0.0.0.0",
//	    "port": 8080,
//	    "allowedOrigins": ["https://shop.example.com"]
//	  },
//	  "log": {"level": "info", "format": "json"},
//	  "shop": {"locale": "en-US", "currency": "$", "latency": "150ms"},
//	  "images": {
//	    "driver": "s3",
//	    "bucket": "storefront-images",
//	    "region": "us-east-1",
//	    "urlExpiry": "15m"
//	  },
//	  "telemetry": {"endpoint": "localhost:4318", "insecure": true},
//	  "router": {"maxRedirects": 8}
//	}
//
// # Usage
//
//	cfg, err := config.LoadOrDefault(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Listening on", cfg.Address())
package config
