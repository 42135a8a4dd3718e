// Package decorator reads the configuration object literal passed to a
// plugin class decorator, e.g.
//
//	@Plugin({
//	  pluginName: 'Camera',
//	  plugin: 'cordova-plugin-camera',
//	  platforms: ['Android', 'iOS'],
//	})
//
// Two readers exist. The grammar parser understands the object-literal
// subset used in decorator arguments. The legacy parser rewrites the
// literal into JSON with a fixed sequence of textual substitutions and is
// kept for output compatibility with older documentation builds.
package decorator
