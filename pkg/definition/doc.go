// Package definition loads declarative settings pages from JSON or YAML and
// applies them to a settings.Registry.
//
//	pages:
//	  - key: my_plugin_settings
//	    title: My Plugin
//	    sections:
//	      - id: general
//	        title: General
//	        description: Optional <em>HTML</em> shown under the title.
//	        fields:
//	          - id: my_plugin_api_key
//	            name: my_plugin_api_key
//	            type: input
//	            dataSource: option
//	            bind: true
package definition
