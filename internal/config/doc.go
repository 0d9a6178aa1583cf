// Package config resolves hearth's own settings and builds its logger.
//
// Settings come, lowest precedence first, from built-in defaults, an
// optional config.yaml in the hearth config directory, and HEARTH_*
// environment variables:
//
//	# ~/.config/hearth/config.yaml
//	output_dir: ~/.config/hearth
//	generated_dir: ~/dotfiles/generated
//	log_level: debug
//
// Directory defaults follow the XDG base directory specification.
package config
