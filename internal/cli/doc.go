/*
Package cli implements the domfind command line.

Commands:

	find   wait for the first match, fail when none appears
	first  print the first match without waiting
	all    print every match
	scan   run "all" against every HTML document under a directory
	kinds  list registered selector kinds

Configuration is read from DOMFIND_* environment variables and overridden
by flags.
*/
package cli
