/*
Package gconf provides a toolset for managing an extension configuration.

Configuration is a singleton stored in the database under a key derived
from the extension name. It is loaded from the "conf" section of the
genesis file, for example:

	{
	  "conf": {
	    "vault": {"metadata": {"schema": 1}, "ticker": "IOV", "max_ratio_slots": 10}
	  }
	}
*/
package gconf
