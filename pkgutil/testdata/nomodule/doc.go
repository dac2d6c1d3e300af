package nomodule
